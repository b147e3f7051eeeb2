package request

// RegisterRequest is the request body for creating a binding
type RegisterRequest struct {
	Identity   string `json:"identity"`
	PlayerName string `json:"player_name"`
}

// RotateRequest is the request body for changing a bound player name
type RotateRequest struct {
	PlayerName string `json:"player_name"`
}
