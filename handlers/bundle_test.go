package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"carebook/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorMapping(t *testing.T) {
	h := &HandlerBundle{Logger: zap.NewNop()}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", &services.ConflictError{Alternatives: []string{"09:00"}}, http.StatusConflict},
		{"validation", services.NewValidationError("date", "bad"), http.StatusBadRequest},
		{"not found", &services.NotFoundError{Kind: "mission", ID: "m1"}, http.StatusNotFound},
		{"forbidden", services.NewForbiddenError("accept", "not yours"), http.StatusForbidden},
		{"guard", services.NewGuardError("accept", "cancelled"), http.StatusUnprocessableEntity},
		{"external", &services.ExternalCallError{Op: "payout", Err: errors.New("down")}, http.StatusBadGateway},
		{"timeout", fmt.Errorf("load: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			h.respondError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestConflictResponseCarriesAlternatives(t *testing.T) {
	h := &HandlerBundle{Logger: zap.NewNop()}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.respondError(c, &services.ConflictError{ProviderID: "p", Date: "2026-11-02", Times: []string{"10:00"}, Alternatives: []string{"09:00", "11:00"}})

	var body struct {
		Data struct {
			Alternatives []string `json:"alternatives"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"09:00", "11:00"}, body.Data.Alternatives)
}
