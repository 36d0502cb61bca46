package household

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, consumption ConsumptionSource) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newFixture(t, consumption)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r, svc
}

func TestHandlerStatusMapping(t *testing.T) {
	r, svc := newTestRouter(t, &fixedConsumption{total: 50})

	h, err := svc.CreateHousehold(context.Background(), Household{Name: "Haus"})
	require.NoError(t, err)
	m, err := svc.CreateMeter(context.Background(), h.ID, Meter{Medium: MediumElectricity, SerialNumber: "E-1"})
	require.NoError(t, err)
	_, err = svc.SetPrice(context.Background(), m.ID, Price{UnitPrice: decimal.RequireFromString("0.25")})
	require.NoError(t, err)

	tests := []struct {
		name           string
		method         string
		url            string
		body           string
		expectedStatus int
	}{
		{name: "list households", method: http.MethodGet, url: "/api/v1/households", expectedStatus: http.StatusOK},
		{name: "create household", method: http.MethodPost, url: "/api/v1/households", body: `{"name":"Neubau"}`, expectedStatus: http.StatusCreated},
		{name: "create household without name", method: http.MethodPost, url: "/api/v1/households", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "list meters", method: http.MethodGet, url: "/api/v1/households/" + h.ID + "/meters", expectedStatus: http.StatusOK},
		{name: "list meters unknown household", method: http.MethodGet, url: "/api/v1/households/nope/meters", expectedStatus: http.StatusNotFound},
		{name: "create meter bad medium", method: http.MethodPost, url: "/api/v1/households/" + h.ID + "/meters", body: `{"medium":"plutonium","serial_number":"X"}`, expectedStatus: http.StatusBadRequest},
		{name: "create meter", method: http.MethodPost, url: "/api/v1/households/" + h.ID + "/meters", body: `{"medium":"gas","serial_number":"G-9"}`, expectedStatus: http.StatusCreated},
		{name: "list prices", method: http.MethodGet, url: "/api/v1/meters/" + m.ID + "/prices", expectedStatus: http.StatusOK},
		{name: "set price", method: http.MethodPut, url: "/api/v1/meters/" + m.ID + "/prices", body: `{"unit_price":"0.31"}`, expectedStatus: http.StatusOK},
		{name: "cost report", method: http.MethodGet, url: "/api/v1/meters/" + m.ID + "/cost?start=-90d&end=now()", expectedStatus: http.StatusOK},
		{name: "cost report unknown meter", method: http.MethodGet, url: "/api/v1/meters/nope/cost", expectedStatus: http.StatusNotFound},
		{name: "delete meter unknown", method: http.MethodDelete, url: "/api/v1/meters/nope", expectedStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.url, strings.NewReader(tc.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tc.method, tc.url, nil)
			}

			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if resp.Code != tc.expectedStatus {
				t.Logf("unexpected response body: %s", resp.Body.String())
			}
			require.Equal(t, tc.expectedStatus, resp.Code)
		})
	}
}

func TestHandleDeleteMeter(t *testing.T) {
	r, svc := newTestRouter(t, &fixedConsumption{})

	h, err := svc.CreateHousehold(context.Background(), Household{Name: "Haus"})
	require.NoError(t, err)
	m, err := svc.CreateMeter(context.Background(), h.ID, Meter{Medium: MediumWater, SerialNumber: "W-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/meters/"+m.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNoContent, resp.Code)

	meters, err := svc.ListMeters(context.Background(), h.ID)
	require.NoError(t, err)
	require.Empty(t, meters)
}
