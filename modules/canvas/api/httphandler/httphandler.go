package httphandler

import (
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/config"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/fanout"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
	fanout  *fanout.Fanout
	conf    config.Config
}

func New(conf config.Config, usecase *usecase.Usecase, fanout *fanout.Fanout) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
		fanout:  fanout,
		conf:    conf,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}
