package backend

// User mirrors the payload returned by /auth/me.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TeamMember is a single roster entry as the backend stores it: name only,
// everything else is re-derived from the species service on display.
type TeamMember struct {
	Name string `json:"name"`
}

// Team mirrors the team records returned by /teams/.
type Team struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	OwnerID int          `json:"owner_id"`
	Pokemon []TeamMember `json:"pokemon"`
}

// TeamCreate is the request body for creating or replacing a team.
type TeamCreate struct {
	Name    string       `json:"name"`
	Pokemon []TeamMember `json:"pokemon"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
