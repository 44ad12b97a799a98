package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskboard/internal/model"
)

// レスポンスエンベロープのstatus値
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope は全APIレスポンスの統一フォーマット。
// 成功時はdata、失敗時はmessageとcodeを持つ。
type Envelope struct {
	Status  string   `json:"status"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// WriteJSON は成功レスポンスをエンベロープに包んで書き込む。
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, Envelope{Status: StatusSuccess, Data: data})
}

// WriteMessage はdataを持たない成功レスポンスをメッセージ付きで書き込む。
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, Envelope{Status: StatusSuccess, Message: message})
}

// WriteErrorResponse はAPIErrorをエンベロープに包んで書き込む。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeEnvelope(w, statusCode, Envelope{
		Status:  StatusError,
		Message: apiErr.Message,
		Code:    apiErr.Code,
		Details: apiErr.Details,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

func writeEnvelope(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
