package service

import "github.com/prometheus/client_golang/prometheus"

var (
	recipesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recipes_created_total",
		Help: "Recipes created",
	})
	recipesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recipes_deleted_total",
		Help: "Recipes deleted",
	})
	usersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "users_registered_total",
		Help: "Successful registrations",
	})
	recipeSearches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_searches_total",
		Help: "Recipe searches by kind",
	}, []string{"by"})
)

func init() {
	prometheus.MustRegister(recipesCreated, recipesDeleted, usersRegistered, recipeSearches)
}
