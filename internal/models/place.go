package models

// Place is a rentable location owned by a user in a city.
type Place struct {
	BaseModel
	CityID          string
	UserID          string
	Name            string
	Description     string
	NumberRooms     int
	NumberBathrooms int
	MaxGuest        int
	PriceByNight    int
	Latitude        float64
	Longitude       float64
	AmenityIDs      []string
}

// NewPlace creates a place with zero counts and an empty amenity list
func NewPlace() *Place {
	return &Place{
		BaseModel:  NewBaseModel(),
		AmenityIDs: []string{},
	}
}

func (p *Place) TypeName() string { return "Place" }

func (p *Place) Fields() []Field {
	return []Field{
		stringField("city_id", &p.CityID),
		stringField("user_id", &p.UserID),
		stringField("name", &p.Name),
		stringField("description", &p.Description),
		intField("number_rooms", &p.NumberRooms),
		intField("number_bathrooms", &p.NumberBathrooms),
		intField("max_guest", &p.MaxGuest),
		intField("price_by_night", &p.PriceByNight),
		floatField("latitude", &p.Latitude),
		floatField("longitude", &p.Longitude),
		listField("amenity_ids", &p.AmenityIDs),
	}
}

func (p *Place) String() string { return Render(p) }
