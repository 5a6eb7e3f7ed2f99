package doctor

// AddRequest is the body of POST /doctors/:specialty.
type AddRequest struct {
	Name       string `json:"name"`
	Experience string `json:"experience"`
}

// Patch changes a doctor. Nil or empty fields are left alone.
type Patch struct {
	Name       *string `json:"name"`
	Experience *string `json:"experience"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
