package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"songdrop/internal/models/response_models"
	"songdrop/internal/services"
	"songdrop/pkg/utils"
)

const stripeSignatureHeader = "Stripe-Signature"

type PaymentController struct {
	paymentService services.PaymentService
	maxBodyBytes   int64
}

func NewPaymentController(paymentService services.PaymentService, maxBodyBytes int64) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		maxBodyBytes:   maxBodyBytes,
	}
}

// HandleWebhook godoc
// @Summary Receive payment provider events
// @Description Completes the pending payment for the song named in the event metadata. Replays are acknowledged without side effects.
// @Tags Payments
// @Accept json
// @Produce json
// @Param stripe-signature header string true "Provider signature"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /stripe-webhook [post]
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	signature := c.GetHeader(stripeSignatureHeader)
	if signature == "" {
		utils.HandleServiceError(c, utils.ErrMissingSignature)
		return
	}

	payload, err := readLimited(c.Request.Body, p.maxBodyBytes)
	if err != nil {
		utils.HandleServiceError(c, fmt.Errorf("%w: %v", utils.ErrMalformedPayload, err))
		return
	}

	event, outcome, err := p.paymentService.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.WebhookAckResponse{
		EventType: event.EventType(),
		Outcome:   string(outcome),
	}, "Webhook processed")
}

func readLimited(body io.Reader, limit int64) ([]byte, error) {
	if body == nil {
		return nil, fmt.Errorf("empty body")
	}
	payload, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > limit {
		return nil, fmt.Errorf("body exceeds %d bytes", limit)
	}
	return payload, nil
}

// Preflight answers CORS preflight requests; the headers come from the route's CORS middleware.
func Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}
