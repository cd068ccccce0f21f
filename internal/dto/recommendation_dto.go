package dto

type GenerateRecommendationRequest struct {
	RecommendationType string `json:"recommendation_type"`
}
