// pkg/registry/schema.go
package registry

type QuestionRegistry struct {
	Version     string        `json:"version"`
	LastUpdated string        `json:"lastUpdated"`
	Sets        []QuestionSet `json:"sets"`
}

type QuestionSet struct {
	Tier        string   `json:"tier"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	File        string   `json:"file"`
	Paid        bool     `json:"paid"`
	Dimensions  []string `json:"dimensions"`
	Tags        []string `json:"tags"`
}
