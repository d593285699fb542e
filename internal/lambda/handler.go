package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"cramomatic/internal/api"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// request is the function URL body. Which fields matter depends on Action.
type request struct {
	Action string   `json:"action"`
	Output string   `json:"output"`
	Items  []string `json:"items"`
	Slot   int      `json:"slot"`
}

// Handler serves the recipe service behind a Lambda function URL.
type Handler struct {
	svc    *api.Service
	logger *zap.Logger
}

// NewHandler wraps svc for the Lambda runtime. A nil logger discards output.
func NewHandler(svc *api.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Handle decodes one function URL request, runs its action and encodes the reply.
func (h *Handler) Handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}

	var (
		resp any
		err  error
	)
	switch req.Action {
	case "recipe":
		resp, err = h.svc.Recipe(api.RecipeRequest{Items: req.Items})
	case "check":
		resp, err = h.svc.Check(api.CheckRequest{Output: req.Output, Items: req.Items})
	case "options":
		resp, err = h.svc.Options(api.OptionsRequest{Output: req.Output, Items: req.Items, Slot: req.Slot})
	case "outputs":
		resp = h.svc.Outputs()
	case "items":
		resp = h.svc.Items()
	case "":
		return errResp(http.StatusBadRequest, "missing action")
	default:
		return errResp(http.StatusBadRequest, "unknown action "+req.Action)
	}
	if err != nil {
		h.logger.Info("request failed", zap.String("action", req.Action), zap.Error(err))
		return errResp(api.StatusOf(err), err.Error())
	}

	respJSON, err := json.Marshal(resp)
	if err != nil {
		return errResp(http.StatusInternalServerError, err.Error())
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
