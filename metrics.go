package macrocell

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "macrocell_decodes_total",
	Help: "Number of macrocell texts decoded, by result",
}, []string{"result"})

var linesEncoded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "macrocell_lines_encoded_total",
	Help: "Number of macrocell text lines written",
})

var boardsStored = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "macrocell_boards_stored_total",
	Help: "Number of boards saved to a store, by whether the content was new",
}, []string{"status"})

var boardsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "macrocell_boards_loaded_total",
	Help: "Number of boards loaded from a store, by source",
}, []string{"source"})
