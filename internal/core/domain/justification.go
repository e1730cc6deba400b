package domain

// Justification reasons offered to workers.
const (
	ReasonForgot       = "Esquecimento"
	ReasonComputerDown = "Computador Inoperante"
	ReasonPowerOutage  = "Falta de Energia"
	ReasonOther        = "Outro Motivo"
)

// JustificationReasons lists the accepted reasons in display order.
var JustificationReasons = []string{ReasonForgot, ReasonComputerDown, ReasonPowerOutage, ReasonOther}

// ValidReason reports whether r is an accepted justification reason.
func ValidReason(r string) bool {
	for _, v := range JustificationReasons {
		if v == r {
			return true
		}
	}
	return false
}

// ReasonNeedsDescription reports whether a free-text description is mandatory.
func ReasonNeedsDescription(r string) bool {
	return r == ReasonOther
}

// Shift mirror display statuses.
const (
	DisplayOpen          = "Em Aberto"
	DisplayAwaiting      = "Aguardando Autorização"
	DisplayClosed        = "Fechado"
	DisplayClosedNoEntry = "Fechado (S/E)"
)
