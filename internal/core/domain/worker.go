package domain

import "time"

// WorkerStatus is the registration state of a cooperative worker.
type WorkerStatus string

const (
	WorkerActive    WorkerStatus = "ACTIVE"
	WorkerInactive  WorkerStatus = "INACTIVE"
	WorkerSuspended WorkerStatus = "SUSPENDED"
)

// Valid reports whether s is a known worker status.
func (s WorkerStatus) Valid() bool {
	switch s {
	case WorkerActive, WorkerInactive, WorkerSuspended:
		return true
	}
	return false
}

// BiometricTemplate is an enrolled fingerprint. The core only cares that at
// least one exists; the hash is compared by identification providers.
type BiometricTemplate struct {
	ID           string    `json:"id" bson:"id"`
	FingerIndex  int       `json:"finger_index" bson:"finger_index"`
	TemplateHash string    `json:"template_hash" bson:"template_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Worker is a cooperative staff member who clocks in and out.
type Worker struct {
	ID                 string              `json:"id" bson:"_id"`
	Name               string              `json:"name" bson:"name"`
	Registration       string              `json:"registration" bson:"registration"`
	Document           string              `json:"document,omitempty" bson:"document,omitempty"`
	Specialty          string              `json:"specialty,omitempty" bson:"specialty,omitempty"`
	Phone              string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Email              string              `json:"email,omitempty" bson:"email,omitempty"`
	Status             WorkerStatus        `json:"status" bson:"status"`
	EnrolledBiometrics []BiometricTemplate `json:"enrolled_biometrics" bson:"enrolled_biometrics"`
	UpdatedAt          time.Time           `json:"updated_at" bson:"updated_at"`
}

// HasBiometrics reports whether the worker has at least one enrolled template.
func (w *Worker) HasBiometrics() bool {
	return len(w.EnrolledBiometrics) > 0
}

// Clone returns a deep copy of w.
func (w *Worker) Clone() *Worker {
	if w == nil {
		return nil
	}
	c := *w
	c.EnrolledBiometrics = append([]BiometricTemplate(nil), w.EnrolledBiometrics...)
	return &c
}
