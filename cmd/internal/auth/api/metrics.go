package authapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raggate_auth_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	signupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raggate_auth_signups_total",
		Help: "Account signup attempts by outcome.",
	}, []string{"outcome"})

	refreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raggate_auth_token_refreshes_total",
		Help: "Access-token refresh attempts by outcome.",
	}, []string{"outcome"})
)
