package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(buildInfo)
}

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A constant metric with labels for version, commit and update mode.",
	},
	[]string{"version", "commit", "mode"},
)

func SetBuildInfo(version, commit, mode string) {
	buildInfo.WithLabelValues(version, commit, norm(mode)).Set(1)
}
