package models

// Review is a user's text about a place.
type Review struct {
	BaseModel
	PlaceID string
	UserID  string
	Text    string
}

func NewReview() *Review {
	return &Review{BaseModel: NewBaseModel()}
}

func (r *Review) TypeName() string { return "Review" }

func (r *Review) Fields() []Field {
	return []Field{
		stringField("place_id", &r.PlaceID),
		stringField("user_id", &r.UserID),
		stringField("text", &r.Text),
	}
}

func (r *Review) String() string { return Render(r) }
