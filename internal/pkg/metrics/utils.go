package metrics

import "github.com/prometheus/client_golang/prometheus"

// Register tries to register or reregister metric to the registerer
func Register(r prometheus.Registerer, m prometheus.Collector) error {
	err := r.Register(m)
	if err != nil {
		r.Unregister(m)
		err = r.Register(m)
	}
	return err
}
