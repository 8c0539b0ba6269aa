package skiplist

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// Literal single-threaded scenarios, one Convey tree per fresh variant
// instance, mirroring the walkthroughs written out by hand.

func TestScenarios_SingleThreadedSmoke(t *testing.T) {
	for _, l := range freshVariants() {
		Convey("Given "+l.name+", inserting [3,1,4,1,5,9,2,6]", t, func() {
			keys := []int{3, 1, 4, 1, 5, 9, 2, 6}
			want := []bool{true, true, true, false, true, true, true, true}
			got := make([]bool, len(keys))
			for i, k := range keys {
				got[i] = l.Insert(k, k)
			}
			Convey("the return values match the literal sequence", func() {
				So(got, ShouldResemble, want)
			})
			Convey("contains(1) is true and contains(7) is false", func() {
				So(l.Contains(1), ShouldBeTrue)
				So(l.Contains(7), ShouldBeFalse)
			})
			Convey("size is 7", func() {
				So(l.Len(), ShouldEqual, 7)
			})
		})
	}
}

func TestScenarios_DeleteCascade(t *testing.T) {
	for _, l := range freshVariants() {
		Convey("Given "+l.name+", inserting 1..10 then deleting 5", t, func() {
			for k := 1; k <= 10; k++ {
				l.Insert(k, k)
			}
			l.Delete(5)

			Convey("contains(5) is false", func() {
				So(l.Contains(5), ShouldBeFalse)
			})
			Convey("neighbors 4 and 6 are still present", func() {
				So(l.Contains(4), ShouldBeTrue)
				So(l.Contains(6), ShouldBeTrue)
			})
			Convey("size is 9", func() {
				So(l.Len(), ShouldEqual, 9)
			})
		})
	}
}

func TestScenarios_DeleteAbsent(t *testing.T) {
	for _, l := range freshVariants() {
		Convey("Given an empty "+l.name, t, func() {
			Convey("delete(7) is false", func() {
				So(l.Delete(7), ShouldBeFalse)
			})
			Convey("contains(7) is false", func() {
				So(l.Contains(7), ShouldBeFalse)
			})
			Convey("size is 0", func() {
				So(l.Len(), ShouldEqual, 0)
			})
		})
	}
}

func TestScenarios_Validator(t *testing.T) {
	for _, l := range freshVariants() {
		Convey("Given "+l.name+" after a mixed insert/delete sequence", t, func() {
			for _, k := range []int{8, 2, 5, 1, 9, 3, 7} {
				l.Insert(k, k)
			}
			l.Delete(5)
			l.Insert(5, 50)
			l.Delete(2)

			Convey("validate() returns true", func() {
				So(l.Validate(), ShouldBeTrue)
			})
		})
	}
}

// namedList adapts each variant to a single interface plus a label, so
// the scenarios above run once per variant without repeating themselves.
type namedList struct {
	SkipList
	name string
}

func freshVariants() []namedList {
	return []namedList{
		{NewCoarse(), "Coarse"},
		{NewFineGrained(), "FineGrained"},
		{NewLockFree(), "LockFree"},
	}
}
