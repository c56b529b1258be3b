package http

import "github.com/labstack/echo/v4"

// Handler defines HTTP route registration interface.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// CombineHandlers merges several handlers into one route registrar.
func CombineHandlers(handlers ...Handler) Handler {
	return combined(handlers)
}

type combined []Handler

func (c combined) RegisterRoutes(e *echo.Echo) {
	for _, h := range c {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}
