package models

type State struct {
	BaseModel
	Name string
}

func NewState() *State {
	return &State{BaseModel: NewBaseModel()}
}

func (s *State) TypeName() string { return "State" }

func (s *State) Fields() []Field {
	return []Field{stringField("name", &s.Name)}
}

func (s *State) String() string { return Render(s) }
