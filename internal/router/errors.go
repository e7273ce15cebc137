package router

import "errors"

var ErrRouteNotFound = errors.New("route not found")
