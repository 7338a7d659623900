package server

import "github.com/raysh454/skim/internal/app"

// runResponse is the synchronous pipeline response: the finished job plus
// its result.
type runResponse struct {
	Job    *app.RunJob `json:"job"`
	Result any         `json:"result,omitempty"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}
