package markov_test

import (
	"context"
	"testing"

	"github.com/okian/harpastum/internal/domain/markov"
	"github.com/okian/harpastum/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSolver_SteadyState(t *testing.T) {
	Convey("Given the three-player transition matrix", t, func() {
		ctx := context.Background()
		passList, roster, _ := threePlayerPasses()
		tpm, err := markov.NewBuilder().Build(ctx, passList, roster)
		So(err, ShouldBeNil)

		Convey("When solving for the steady state", func() {
			pi, err := markov.NewSolver().SteadyState(ctx, tpm)

			Convey("Then the distribution should be a valid probability vector", func() {
				So(err, ShouldBeNil)
				So(len(pi.Probs), ShouldEqual, 3)
				So(pi.Sum(), ShouldAlmostEqual, 1.0, 1e-9)
				for _, p := range pi.Probs {
					So(p, ShouldBeGreaterThanOrEqualTo, 0)
				}
			})

			Convey("And it should satisfy the fixed-point property pi*P = pi", func() {
				So(err, ShouldBeNil)
				n := tpm.Dim()
				for j := 0; j < n; j++ {
					var acc float64
					for i := 0; i < n; i++ {
						acc += pi.Probs[i] * tpm.At(i, j)
					}
					So(acc, ShouldAlmostEqual, pi.Probs[j], 1e-4)
				}
			})

			Convey("And it should match the analytic solution for this chain", func() {
				// Solving pi = pi*P by hand gives pi = [8/19, 6/19, 5/19].
				So(err, ShouldBeNil)
				So(pi.Probs[0], ShouldAlmostEqual, 8.0/19.0, 1e-9)
				So(pi.Probs[1], ShouldAlmostEqual, 6.0/19.0, 1e-9)
				So(pi.Probs[2], ShouldAlmostEqual, 5.0/19.0, 1e-9)
			})

			Convey("And it should be indexed by the matrix roster", func() {
				So(err, ShouldBeNil)
				So(pi.Roster.SameOrdering(tpm.Roster()), ShouldBeTrue)
			})
		})
	})

	Convey("Given a reducible chain of two isolated loops", t, func() {
		ctx := context.Background()
		a, b := model.NewPlayerID(), model.NewPlayerID()
		c, d := model.NewPlayerID(), model.NewPlayerID()
		passList := []model.Pass{
			{Actor: a, Recipient: b}, {Actor: b, Recipient: a},
			{Actor: c, Recipient: d}, {Actor: d, Recipient: c},
		}
		roster := model.NewRoster([]model.PlayerID{a, b, c, d})
		tpm, err := markov.NewBuilder().Build(ctx, passList, roster)
		So(err, ShouldBeNil)

		Convey("When solving for the steady state", func() {
			_, err := markov.NewSolver().SteadyState(ctx, tpm)

			Convey("Then it should reject the chain as non-ergodic", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, markov.ErrNotErgodic)
			})
		})
	})

	Convey("Given a periodic two-player chain", t, func() {
		ctx := context.Background()
		a, b := model.NewPlayerID(), model.NewPlayerID()
		passList := []model.Pass{
			{Actor: a, Recipient: b},
			{Actor: b, Recipient: a},
		}
		roster := model.NewRoster([]model.PlayerID{a, b})
		tpm, err := markov.NewBuilder().Build(ctx, passList, roster)
		So(err, ShouldBeNil)

		Convey("When solving for the steady state", func() {
			_, err := markov.NewSolver().SteadyState(ctx, tpm)

			Convey("Then it should reject the chain for the competing unit eigenvalue", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, markov.ErrNotErgodic)
			})
		})
	})
}
