package api

import (
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fulldump/diffbelt/api/apicollectionv1"
	"github.com/fulldump/diffbelt/database"
)

func Build(db *database.Database, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		InterceptorUnavailable(db),
	)

	apicollectionv1.BuildV1Collection(v1).
		WithInterceptors(
			apicollectionv1.InjectDatabase(db),
		)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}).WithName("release"))

	metricsHandler := promhttp.Handler()
	b.Resource("/metrics").
		WithActions(box.Get(func(w http.ResponseWriter, r *http.Request) {
			metricsHandler.ServeHTTP(w, r)
		}).WithName("metrics"))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "diffbelt"
	spec.Info.Description = "A versioned in-memory key-value store with generations, readers and diffs."
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}
