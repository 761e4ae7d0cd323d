package dto

import "github.com/google/uuid"

type BanRequest struct {
	Reason string `json:"reason"`
}

type SuspendRequest struct {
	Days int `json:"days"`
}

type BlockedWordRequest struct {
	Term     string `json:"term"`
	Category string `json:"category"`
}

type CurationRequest struct {
	Titulo       string     `json:"titulo"`
	Texto        string     `json:"texto"`
	Link         string     `json:"link"`
	Imagem       string     `json:"imagem"`
	Ordem        int        `json:"ordem"`
	Ativo        *bool      `json:"ativo"`
	ShowOnEdu    *bool      `json:"show_on_edu"`
	ShowOnIndex  *bool      `json:"show_on_index"`
	EduContentID *uuid.UUID `json:"edu_content_id"`
	PostID       *uuid.UUID `json:"post_id"`
}

type ReorderRequest struct {
	Items []ReorderItem `json:"items"`
}

type ReorderItem struct {
	ID    uuid.UUID `json:"id"`
	Ordem int       `json:"ordem"`
}

type AvisoRapidoRequest struct {
	Titulo   string `json:"titulo"`
	Mensagem string `json:"mensagem"`
}

type EduContentRequest struct {
	Tipo    string     `json:"tipo"`
	Titulo  string     `json:"titulo"`
	Resumo  string     `json:"resumo"`
	Corpo   string     `json:"corpo"`
	URL     string     `json:"url"`
	TopicID *uuid.UUID `json:"topic_id"`
}

type EduTopicRequest struct {
	Area string `json:"area"`
	Nome string `json:"nome"`
}

type NovidadeRequest struct {
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
	Link      string `json:"link"`
}

type SupportTicketRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Mensagem string `json:"mensagem"`
}

type SupportReplyRequest struct {
	Resposta string `json:"resposta"`
}

type SupportStatusRequest struct {
	Status string `json:"status"`
}
