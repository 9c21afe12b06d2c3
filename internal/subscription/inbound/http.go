package inbound

import "github.com/shandysiswandi/newsletter/internal/pkg/router"

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/subscriptions", end.Subscribe)
	r.GET("/subscriptions/confirm", end.Confirm)
}
