package model_test

import (
	"testing"

	"github.com/okian/harpastum/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRoster(t *testing.T) {
	Convey("Given an ordered set of players", t, func() {
		a, b, c := model.NewPlayerID(), model.NewPlayerID(), model.NewPlayerID()
		roster := model.NewRoster([]model.PlayerID{a, b, c})

		Convey("Then the ordering is frozen and indexable", func() {
			So(roster.Size(), ShouldEqual, 3)
			i, ok := roster.Index(b)
			So(ok, ShouldBeTrue)
			So(i, ShouldEqual, 1)
			So(roster.ID(1), ShouldResemble, b)
			So(roster.Contains(model.NewPlayerID()), ShouldBeFalse)
		})

		Convey("When building with duplicates", func() {
			dup := model.NewRoster([]model.PlayerID{a, b, a, c, b})

			Convey("Then the first occurrence wins", func() {
				So(dup.Size(), ShouldEqual, 3)
				So(dup.SameOrdering(roster), ShouldBeTrue)
			})
		})

		Convey("When excluding players", func() {
			smaller := roster.Without(map[model.PlayerID]bool{b: true})

			Convey("Then the remainder keeps its relative order", func() {
				So(smaller.Size(), ShouldEqual, 2)
				So(smaller.ID(0), ShouldResemble, a)
				So(smaller.ID(1), ShouldResemble, c)
				So(smaller.SameOrdering(roster), ShouldBeFalse)
			})
		})

		Convey("When comparing orderings", func() {
			So(roster.SameOrdering(model.NewRoster([]model.PlayerID{a, b, c})), ShouldBeTrue)
			So(roster.SameOrdering(model.NewRoster([]model.PlayerID{a, c, b})), ShouldBeFalse)
			So(roster.SameOrdering(nil), ShouldBeFalse)
		})

		Convey("When copying the ID slice", func() {
			ids := roster.IDs()
			ids[0] = model.NewPlayerID()

			Convey("Then the roster itself is untouched", func() {
				So(roster.ID(0), ShouldResemble, a)
			})
		})
	})
}
