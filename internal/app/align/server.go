package align

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/airenas/ibm1/internal/pkg/cmdapp"
	"github.com/airenas/ibm1/internal/pkg/em"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusProvider returns the engine progress
type StatusProvider interface {
	Status() em.Status
}

type statusData struct {
	port     int
	health   healthcheck.Handler
	status   StatusProvider
	gatherer prometheus.Gatherer
}

// startStatusServer starts the HTTP status service in background
func startStatusServer(data *statusData) (*http.Server, error) {
	if data.health == nil {
		data.health = newHealth(data.status)
	}
	portStr := strconv.Itoa(data.port)
	l, err := net.Listen("tcp", ":"+portStr)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.IO, "can't start HTTP listener at port "+portStr)
	}
	cmdapp.Log.Infof("Starting HTTP status service at %d", data.port)
	srv := &http.Server{Handler: NewRouter(data)}
	go func() {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			cmdapp.Log.Error(errors.Wrap(err, "status service failed"))
		}
	}()
	return srv, nil
}

func newHealth(sp StatusProvider) healthcheck.Handler {
	res := healthcheck.NewHandler()
	res.AddReadinessCheck("engine", func() error {
		if st := sp.Status().State; st < em.Initialized {
			return errors.Errorf("engine is %s", st)
		}
		return nil
	})
	return res
}

// NewRouter creates the router for HTTP status service
func NewRouter(data *statusData) *mux.Router {
	router := mux.NewRouter()
	router.Methods("GET").Path("/status").Handler(&statusHandler{data: data})
	if data.gatherer != nil {
		router.Methods("GET").Path("/metrics").Handler(promhttp.HandlerFor(data.gatherer, promhttp.HandlerOpts{}))
	}
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	return router
}

type statusHandler struct {
	data *statusData
}

func (h *statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Debugf("Request from %s", r.RemoteAddr)
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(h.data.status.Status())
	if err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
}
