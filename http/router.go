package http

import (
	"github.com/gorilla/mux"
)

type (
	Router         = mux.Router
	RouteWalkFn    = mux.WalkFunc
	Route          = mux.Route
	RouteMatch     = mux.RouteMatch
	MiddlewareFunc = mux.MiddlewareFunc
)

var (
	SetURLVars   = mux.SetURLVars
	GetURLVars   = mux.Vars
	CurrentRoute = mux.CurrentRoute
)

func NewRouter() *Router {
	return mux.NewRouter()
}
