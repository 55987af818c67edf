package events

type ListEventsQuery struct {
	Limit    int  `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset   int  `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Upcoming bool `query:"upcoming" json:"upcoming,omitempty"`
}

type CreateEventPayload struct {
	Title           string  `json:"title" mod:"trim" validate:"required,max=200"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=20000"`
	Location        *string `json:"location,omitempty" validate:"omitempty,max=300"`
	StartDate       *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate         *string `json:"end_date,omitempty" validate:"omitempty,date"`
	ImageURL        string  `json:"image_url,omitempty" mod:"trim" validate:"url"`
	RegistrationURL *string `json:"registration_url,omitempty" validate:"omitempty,url"`
	Published       bool    `json:"published,omitempty"`
}

type UpdateEventPayload struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,ne=,max=200"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=20000"`
	Location        *string `json:"location,omitempty" validate:"omitempty,max=300"`
	StartDate       *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate         *string `json:"end_date,omitempty" validate:"omitempty,date"`
	ImageURL        *string `json:"image_url,omitempty" validate:"omitempty,url"`
	RegistrationURL *string `json:"registration_url,omitempty" validate:"omitempty,url"`
	Published       *bool   `json:"published,omitempty"`
}
