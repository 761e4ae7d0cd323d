package dto

type CreatePostRequest struct {
	Content string `json:"content"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type ReportRequest struct {
	Category string `json:"category"`
	Motivo   string `json:"motivo"`
}

type LikeResponse struct {
	Liked bool `json:"liked"`
}
