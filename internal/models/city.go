package models

// City belongs to a State through StateID.
type City struct {
	BaseModel
	StateID string
	Name    string
}

func NewCity() *City {
	return &City{BaseModel: NewBaseModel()}
}

func (c *City) TypeName() string { return "City" }

func (c *City) Fields() []Field {
	return []Field{
		stringField("state_id", &c.StateID),
		stringField("name", &c.Name),
	}
}

func (c *City) String() string { return Render(c) }
