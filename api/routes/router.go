package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/controllers"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/middleware"
	commsvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/comms"
	debtorsvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/debtors"
	ingestsvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/ingest"
	pharmacysvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/pharmacies"
	reportsvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/reports"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/config"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	promGatherer prometheus.Gatherer,
	pharmacyService pharmacysvc.Service,
	ingestService ingestsvc.Service,
	reportService reportsvc.Service,
	debtorService debtorsvc.Service,
	commService commsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if promGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promGatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/ping", controllers.Ping())

	r.Route("/api/admin/v1/pharmacies", func(r chi.Router) {
		r.Get("/", controllers.ListPharmacies(pharmacyService, logg))
		r.Post("/", controllers.CreatePharmacy(pharmacyService, logg))
		r.Route("/{pharmacyID}", func(r chi.Router) {
			r.Get("/", controllers.GetPharmacy(pharmacyService, logg))
			r.Patch("/", controllers.UpdatePharmacy(pharmacyService, logg))
			r.Delete("/", controllers.DeletePharmacy(pharmacyService, logg))
		})
	})

	r.Route("/api/v1/pharmacies/{pharmacyID}", func(r chi.Router) {
		r.Use(middleware.PharmacyContext(logg))

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", controllers.UploadReport(ingestService, cfg, logg))
			r.Get("/", controllers.ListReports(reportService, logg))
			r.Get("/{reportID}", controllers.GetReport(reportService, logg))
		})

		r.Route("/debtors", func(r chi.Router) {
			r.Get("/", controllers.ListDebtors(debtorService, logg))
			r.Get("/stats", controllers.DebtorStats(debtorService, logg))
			r.Route("/{debtorID}", func(r chi.Router) {
				r.Get("/", controllers.GetDebtor(debtorService, logg))
				r.Delete("/", controllers.DeleteDebtor(debtorService, logg))
				r.Get("/communications", controllers.DebtorCommunications(commService, logg))
				r.Post("/communications", controllers.SendStatement(commService, logg))
			})
		})
	})

	return r
}
