package claim_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/fantaprice/internal/domain/claim"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryRegistry(t *testing.T) {
	Convey("Given a new InMemoryRegistry", t, func() {
		ctx := context.Background()

		Convey("When creating a registry with default options", func() {
			r := claim.NewInMemoryRegistry()

			Convey("Then it should be empty", func() {
				So(r, ShouldNotBeNil)
				So(r.Size(), ShouldEqual, 0)
				So(r.Unclaimed(3), ShouldResemble, []int{0, 1, 2})
			})
		})

		Convey("When claiming indexes", func() {
			r := claim.NewInMemoryRegistry(claim.WithCapacity(10))

			Convey("And the index is free", func() {
				ok := r.Claim(ctx, 4)

				Convey("Then it should be recorded", func() {
					So(ok, ShouldBeTrue)
					So(r.Claimed(4), ShouldBeTrue)
					So(r.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the index was already claimed", func() {
				r.Claim(ctx, 4)
				ok := r.Claim(ctx, 4)

				Convey("Then the second claim should fail", func() {
					So(ok, ShouldBeFalse)
					So(r.Size(), ShouldEqual, 1)
				})
			})

			Convey("And listing what is left", func() {
				r.Claim(ctx, 0)
				r.Claim(ctx, 2)

				Convey("Then free indexes should come back in order", func() {
					So(r.Unclaimed(5), ShouldResemble, []int{1, 3, 4})
					So(r.Unclaimed(0), ShouldBeEmpty)
				})
			})
		})
	})
}

func TestRegistryConcurrency(t *testing.T) {
	Convey("Given goroutines racing for the same indexes", t, func() {
		r := claim.NewInMemoryRegistry()
		const goroutines = 10
		const indexes = 100

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < indexes; i++ {
					if r.Claim(context.Background(), i) {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each index should be won exactly once", func() {
			So(wins, ShouldEqual, indexes)
			So(r.Size(), ShouldEqual, indexes)
		})
	})
}
