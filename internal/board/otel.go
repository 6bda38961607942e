package board

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/tacticboard/internal/board"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	commits         metric.Int64Counter
	undo            metric.Int64Counter
	redo            metric.Int64Counter
	storageFailures metric.Int64Counter
	gestures        metric.Int64Counter
}

func newMetrics() (metrics, error) {
	m := meter()
	var (
		out metrics
		err error
	)

	if out.commits, err = m.Int64Counter("board.commits",
		metric.WithDescription("Board edits pushed to history and persisted")); err != nil {
		return out, err
	}
	if out.undo, err = m.Int64Counter("board.undo",
		metric.WithDescription("Undo steps applied")); err != nil {
		return out, err
	}
	if out.redo, err = m.Int64Counter("board.redo",
		metric.WithDescription("Redo steps applied")); err != nil {
		return out, err
	}
	if out.storageFailures, err = m.Int64Counter("board.storage.failures",
		metric.WithDescription("Failed board state loads and saves")); err != nil {
		return out, err
	}
	if out.gestures, err = m.Int64Counter("board.gestures",
		metric.WithDescription("Finished pointer gestures by tool")); err != nil {
		return out, err
	}
	return out, nil
}
