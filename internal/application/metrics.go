package application

import "expvar"

// Published under /debug/vars.
var (
	registrationStats = expvar.NewMap("registrations")
	notificationStats = expvar.NewMap("notifications")
)
