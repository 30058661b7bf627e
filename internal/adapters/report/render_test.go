package report_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/okian/harpastum/internal/adapters/report"
	"github.com/okian/harpastum/internal/adapters/repository"
	"github.com/okian/harpastum/internal/app"
	"github.com/okian/harpastum/internal/domain/markov"
	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/internal/domain/montecarlo"
	"github.com/okian/harpastum/internal/domain/passes"
	"github.com/okian/harpastum/internal/domain/validate"
	"github.com/okian/harpastum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// sampleReport assembles a small but complete report by hand.
func sampleReport(t *testing.T) *app.Report {
	t.Helper()
	ctx := context.Background()

	a, b, c := model.NewPlayerID(), model.NewPlayerID(), model.NewPlayerID()
	roster := model.NewRoster([]model.PlayerID{a, b, c})
	var passList []model.Pass
	add := func(from, to model.PlayerID, n int) {
		for i := 0; i < n; i++ {
			passList = append(passList, model.Pass{Actor: from, Recipient: to})
		}
	}
	add(a, b, 3)
	add(a, c, 1)
	add(b, a, 2)
	add(b, c, 2)
	add(c, a, 4)

	tpm, err := markov.NewBuilder().Build(ctx, passList, roster)
	if err != nil {
		t.Fatal(err)
	}
	steady, err := markov.NewSolver().SteadyState(ctx, tpm)
	if err != nil {
		t.Fatal(err)
	}
	initial := model.NewDistribution(roster, []float64{0.5, 0.3, 0.2})

	store := repository.NewMemoryStore()
	nicknames := map[model.PlayerID]string{a: "Alice", b: "Bea", c: "Cora"}
	for i, id := range roster.IDs() {
		if err := store.Upsert(ctx, id, nicknames[id], steady.Probs[i]); err != nil {
			t.Fatal(err)
		}
	}
	ranking, err := store.TopN(ctx, roster.Size())
	if err != nil {
		t.Fatal(err)
	}

	return &app.Report{
		Team:             "Harpastum FC",
		Window:           passes.Window{Team: "Harpastum FC", Period: 1, CutoffMinute: 15},
		ValidationWindow: passes.Window{Team: "Harpastum FC", Period: 1, CutoffMinute: 45},
		Roster:           roster,
		Nicknames:        nicknames,
		TPM:              tpm,
		Initial:          initial,
		Steady:           steady,
		Ranking:          ranking,
		NSteps:           3,
		Projected:        initial,
		MonteCarlo: &montecarlo.Result{
			Roster:      roster,
			SampleSize:  100,
			Repetitions: []int{10, 100},
			Averages: [][]float64{
				{0.48, 0.31, 0.21},
				{0.50, 0.30, 0.20},
			},
		},
		Empirical: initial,
		Comparisons: []validate.Comparison{
			{Name: "steady_state_vs_empirical", Value: 0.012345},
		},
	}
}

func TestRender(t *testing.T) {
	Convey("Given a complete report", t, func() {
		rep := sampleReport(t)

		Convey("When rendering it", func() {
			var buf bytes.Buffer
			err := report.Render(&buf, rep)

			Convey("Then every section appears with player nicknames", func() {
				So(err, ShouldBeNil)
				out := buf.String()
				So(out, ShouldContainSubstring, "Transition probability matrix")
				So(out, ShouldContainSubstring, "Reception distributions")
				So(out, ShouldContainSubstring, "Steady-state possession ranking")
				So(out, ShouldContainSubstring, "Monte Carlo averaged frequencies")
				So(out, ShouldContainSubstring, "Validation (RMSE)")
				So(out, ShouldContainSubstring, "Alice")
				So(out, ShouldContainSubstring, "R=100")
				So(out, ShouldContainSubstring, "0.012345")
			})
		})
	})
}
