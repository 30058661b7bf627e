package montecarlo_test

import (
	"context"
	"testing"

	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/internal/domain/montecarlo"
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

func testDistribution() model.Distribution {
	roster := model.NewRoster([]model.PlayerID{
		model.NewPlayerID(), model.NewPlayerID(), model.NewPlayerID(),
	})
	return model.NewDistribution(roster, []float64{0.5, 0.3, 0.2})
}

func TestSimulator_Run(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fixed-seed simulator over a small repetition ladder", t, func() {
		q := testDistribution()
		sim := montecarlo.New(
			montecarlo.WithSampleSize(200),
			montecarlo.WithRepetitions([]int{10, 100, 1000}),
			montecarlo.WithSeed(7),
			montecarlo.WithWorkerCount(4),
		)

		Convey("When running the simulation", func() {
			res, err := sim.Run(ctx, q)

			Convey("Then the table covers every bucket and player", func() {
				So(err, ShouldBeNil)
				So(res.Repetitions, ShouldResemble, []int{10, 100, 1000})
				So(res.Averages, ShouldHaveLength, 3)
				for _, avg := range res.Averages {
					So(avg, ShouldHaveLength, 3)
				}
			})

			Convey("And every averaged vector is itself a distribution", func() {
				So(err, ShouldBeNil)
				for _, avg := range res.Averages {
					var sum float64
					for _, f := range avg {
						So(f, ShouldBeGreaterThanOrEqualTo, 0)
						sum += f
					}
					So(sum, ShouldAlmostEqual, 1.0, 1e-9)
				}
			})

			Convey("And the averages converge toward the sampled distribution, not away from it", func() {
				So(err, ShouldBeNil)
				first, errFirst := validate.RMSEVectors(res.Average(0), q.Probs)
				last, errLast := validate.RMSEVectors(res.Average(len(res.Averages)-1), q.Probs)
				So(errFirst, ShouldBeNil)
				So(errLast, ShouldBeNil)
				So(last, ShouldBeLessThanOrEqualTo, first)
				So(last, ShouldBeLessThan, 0.01)
			})
		})

		Convey("When running twice with the same seed", func() {
			a, errA := sim.Run(ctx, q)
			b, errB := sim.Run(ctx, q)

			Convey("Then the results agree regardless of worker scheduling", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				for bucket := range a.Averages {
					for i := range a.Averages[bucket] {
						So(a.Averages[bucket][i], ShouldAlmostEqual, b.Averages[bucket][i], 1e-12)
					}
				}
			})
		})
	})

	Convey("Given invalid sampling distributions", t, func() {
		sim := montecarlo.New(montecarlo.WithRepetitions([]int{10}))

		Convey("When the distribution is empty", func() {
			_, err := sim.Run(ctx, model.Distribution{})

			Convey("Then the run is rejected", func() {
				So(err, ShouldWrap, montecarlo.ErrInvalidDistribution)
			})
		})

		Convey("When the distribution carries negative mass", func() {
			roster := model.NewRoster([]model.PlayerID{model.NewPlayerID(), model.NewPlayerID()})
			_, err := sim.Run(ctx, model.NewDistribution(roster, []float64{1.2, -0.2}))

			Convey("Then the run is rejected", func() {
				So(err, ShouldWrap, montecarlo.ErrInvalidDistribution)
			})
		})

		Convey("When the distribution has zero total mass", func() {
			roster := model.NewRoster([]model.PlayerID{model.NewPlayerID(), model.NewPlayerID()})
			_, err := sim.Run(ctx, model.NewDistribution(roster, []float64{0, 0}))

			Convey("Then the run is rejected", func() {
				So(err, ShouldWrap, montecarlo.ErrInvalidDistribution)
			})
		})
	})
}
