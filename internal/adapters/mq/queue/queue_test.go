package queue_test

import (
	"context"
	"testing"

	"github.com/okian/harpastum/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			ok1 := q.Enqueue(ctx, queue.Trial{ID: 1})
			ok2 := q.Enqueue(ctx, queue.Trial{ID: 2})

			Convey("Then both trials are accepted", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third is rejected without blocking", func() {
				So(q.Enqueue(ctx, queue.Trial{ID: 3}), ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, queue.Trial{ID: 1}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects further trials", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Trial{ID: 2}), ShouldBeFalse)
			})

			Convey("And the dequeue channel drains the backlog then closes", func() {
				var ids []int
				for trial := range q.Dequeue(ctx) {
					ids = append(ids, trial.ID)
				}
				So(ids, ShouldResemble, []int{1})
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
