package domain

// Sector is a ward or unit inside a site.
type Sector struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Address is the physical location of a site. Radius is in metres.
type Address struct {
	ZipCode   string  `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
	Street    string  `json:"street,omitempty" bson:"street,omitempty"`
	Number    string  `json:"number,omitempty" bson:"number,omitempty"`
	Latitude  float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Radius    float64 `json:"radius,omitempty" bson:"radius,omitempty"`
}

// Site is a hospital where workers clock in.
type Site struct {
	ID         string   `json:"id" bson:"_id"`
	Name       string   `json:"name" bson:"name"`
	Slug       string   `json:"slug" bson:"slug"`
	AccessCode string   `json:"access_code,omitempty" bson:"access_code,omitempty"`
	Address    *Address `json:"address,omitempty" bson:"address,omitempty"`
	Sectors    []Sector `json:"sectors" bson:"sectors"`
}

// Sector returns the sector with the given id.
func (s *Site) Sector(id string) (Sector, bool) {
	for _, sec := range s.Sectors {
		if sec.ID == id {
			return sec, true
		}
	}
	return Sector{}, false
}

// Clone returns a deep copy of s.
func (s *Site) Clone() *Site {
	if s == nil {
		return nil
	}
	c := *s
	c.Sectors = append([]Sector(nil), s.Sectors...)
	if s.Address != nil {
		a := *s.Address
		c.Address = &a
	}
	return &c
}
