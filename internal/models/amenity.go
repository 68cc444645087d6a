package models

type Amenity struct {
	BaseModel
	Name string
}

func NewAmenity() *Amenity {
	return &Amenity{BaseModel: NewBaseModel()}
}

func (a *Amenity) TypeName() string { return "Amenity" }

func (a *Amenity) Fields() []Field {
	return []Field{stringField("name", &a.Name)}
}

func (a *Amenity) String() string { return Render(a) }
