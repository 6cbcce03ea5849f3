// internal/workers/assessment/load-questions/models.go
package loadquestions

import "confix-workers/internal/models"

type Input struct {
	Plan string `json:"plan"`
}

type Output struct {
	Plan      string            `json:"plan"`
	Questions []models.Question `json:"questions"`
	Count     int               `json:"count"`
}
