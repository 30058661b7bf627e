package passes_test

import (
	"context"
	"testing"

	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/internal/domain/passes"
	"github.com/okian/harpastum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const testTeam = "Corinthians"

func passEvent(from, to model.PlayerID, minute int) model.MatchEvent {
	return model.MatchEvent{
		Kind:         model.KindPass,
		Team:         testTeam,
		Period:       1,
		Minute:       minute,
		Actor:        from,
		Recipient:    to,
		HasRecipient: true,
	}
}

func TestFilter_Passes(t *testing.T) {
	ctx := context.Background()
	a, b, c := model.NewPlayerID(), model.NewPlayerID(), model.NewPlayerID()
	window := passes.Window{Team: testTeam, Period: 1, CutoffMinute: 20}

	Convey("Given a mix of qualifying and disqualified events", t, func() {
		corner := passEvent(a, b, 5)
		corner.SubType = model.SubTypeCorner

		failed := passEvent(b, c, 6)
		failed.Failed = true

		wrongTeam := passEvent(c, a, 7)
		wrongTeam.Team = "Visitors"

		wrongPeriod := passEvent(a, c, 8)
		wrongPeriod.Period = 2

		late := passEvent(b, a, 21)

		noRecipient := passEvent(a, b, 9)
		noRecipient.HasRecipient = false

		events := []model.MatchEvent{
			passEvent(a, b, 3),
			corner,
			failed,
			wrongTeam,
			wrongPeriod,
			late,
			noRecipient,
			passEvent(b, c, 15),
			passEvent(c, a, 20),
		}

		Convey("When filtering", func() {
			kept := passes.NewFilter().Passes(ctx, events, window)

			Convey("Then only the clean in-window passes should remain", func() {
				So(kept, ShouldHaveLength, 3)
				So(kept[0], ShouldResemble, model.Pass{Actor: a, Recipient: b})
				So(kept[1], ShouldResemble, model.Pass{Actor: b, Recipient: c})
				So(kept[2], ShouldResemble, model.Pass{Actor: c, Recipient: a})
			})
		})

		Convey("When the set-piece exclusions are overridden", func() {
			kept := passes.NewFilter(
				passes.WithExcludedSubTypes(model.SubTypeThrowIn),
			).Passes(ctx, events, window)

			Convey("Then corners should pass through", func() {
				So(kept, ShouldHaveLength, 4)
			})
		})
	})

	Convey("Given a player substituted inside the window", t, func() {
		sub := model.MatchEvent{
			Kind:   model.KindSubstitution,
			Team:   testTeam,
			Period: 1,
			Minute: 10,
			Actor:  b,
		}
		events := []model.MatchEvent{
			passEvent(a, b, 3), // before the substitution, still dropped
			passEvent(b, c, 5),
			sub,
			passEvent(a, c, 12),
		}

		Convey("When filtering", func() {
			kept := passes.NewFilter().Passes(ctx, events, window)

			Convey("Then every pass involving the substituted player should be dropped retroactively", func() {
				So(kept, ShouldHaveLength, 1)
				So(kept[0], ShouldResemble, model.Pass{Actor: a, Recipient: c})
			})
		})

		Convey("When the substitution falls outside the cutoff", func() {
			lateSub := sub
			lateSub.Minute = 30
			kept := passes.NewFilter().Passes(ctx, []model.MatchEvent{
				passEvent(a, b, 3),
				lateSub,
			}, window)

			Convey("Then the player is still active inside the window", func() {
				So(kept, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a substitution naming a replacement", t, func() {
		d := model.NewPlayerID()
		sub := model.MatchEvent{
			Kind:           model.KindSubstitution,
			Team:           testTeam,
			Period:         1,
			Minute:         8,
			Actor:          b,
			Replacement:    d,
			HasReplacement: true,
		}
		events := []model.MatchEvent{
			sub,
			passEvent(a, d, 12),
			passEvent(a, c, 14),
		}

		Convey("When collecting the substituted set", func() {
			out := passes.NewFilter().Substituted(ctx, events, window)

			Convey("Then both the leaving player and the replacement are invalidated", func() {
				So(out[b], ShouldBeTrue)
				So(out[d], ShouldBeTrue)
				So(out, ShouldHaveLength, 2)
			})
		})

		Convey("When filtering passes", func() {
			kept := passes.NewFilter().Passes(ctx, events, window)

			Convey("Then passes to the replacement are dropped too", func() {
				So(kept, ShouldHaveLength, 1)
				So(kept[0], ShouldResemble, model.Pass{Actor: a, Recipient: c})
			})
		})
	})

	Convey("Given no qualifying events at all", t, func() {
		events := []model.MatchEvent{
			{Kind: model.KindPass, Team: "Visitors", Period: 1, Minute: 1},
		}

		Convey("When filtering", func() {
			kept := passes.NewFilter().Passes(ctx, events, window)

			Convey("Then the result is empty, not an error", func() {
				So(kept, ShouldBeEmpty)
			})
		})
	})
}
