package server

import (
	"encoding/json"
	stdhttp "net/http"

	"github.com/gaoyong06/go-pkg/health"
	"github.com/gaoyong06/go-pkg/middleware/i18n"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/conf"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/service"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Bootstrap, svc *service.OrderService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			i18n.Middleware(),
		),
		http.ErrorEncoder(customErrorEncoder),
	}
	if c.Server.Http.Addr != "" {
		opts = append(opts, http.Address(c.Server.Http.Addr))
	}
	srv := http.NewServer(opts...)

	api := srv.Route("/api")
	api.POST("/subscription/initialize", svc.InitializeSubscription)
	api.GET("/orders/{id}", svc.GetOrder)
	api.POST("/notifications/sms", svc.SendSms)
	api.POST("/notifications/contract-email", svc.SendContractEmail)
	api.POST("/invoice/callback", svc.InvoiceCallback)

	// The payment webhook speaks form-encoding and answers with redirects,
	// so it bypasses the kratos codecs and runs as a plain handler.
	srv.HandleFunc("/api/payment/webhook", svc.PaymentWebhook)

	srv.Route("/").GET("/health", func(ctx http.Context) error {
		return ctx.Result(200, health.NewResponse("order-service"))
	})

	return srv
}

func customErrorEncoder(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	se := kerrors.FromError(err)
	status := stdhttp.StatusInternalServerError
	response := map[string]interface{}{
		"success": false,
		"code":    status,
		"error":   "internal server error",
	}

	if se != nil {
		status = mapErrorStatus(int(se.Code))
		response["code"] = se.Code
		response["reason"] = se.Reason
		response["error"] = se.Message
		if len(se.Metadata) > 0 {
			response["metadata"] = se.Metadata
		}
	} else if err != nil {
		response["error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// mapErrorStatus maps business error codes to HTTP statuses: catalog and
// order input problems are the caller's fault, configuration and upstream
// provider failures are ours.
func mapErrorStatus(code int) int {
	if code >= 100 && code < 600 {
		return code
	}
	switch {
	case code >= 140200 && code < 140400:
		return stdhttp.StatusBadRequest
	case code >= 140000 && code < 150000:
		return stdhttp.StatusInternalServerError
	}
	return stdhttp.StatusInternalServerError
}
