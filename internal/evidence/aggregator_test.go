package evidence

import (
	"reflect"
	"testing"
)

func TestRecord_UnionAndAppend(t *testing.T) {
	a := NewAggregator()
	a.Record("친구", []string{"슬프다"}, "나는 친구 때문에 슬펐다")
	a.Record("친구", []string{"무시", "슬프다"}, "그는 나를 무시했다")
	a.Record("친구", nil, "친구를 만났다")

	got, ok := a.Get("친구")
	if !ok {
		t.Fatal("Get() ok = false")
	}
	if want := []string{"슬프다", "무시"}; !reflect.DeepEqual(got.Emotions, want) {
		t.Errorf("Emotions = %v, want %v", got.Emotions, want)
	}
	wantCtx := []string{"나는 친구 때문에 슬펐다", "그는 나를 무시했다", "친구를 만났다"}
	if !reflect.DeepEqual(got.Contexts, wantCtx) {
		t.Errorf("Contexts = %v, want %v", got.Contexts, wantCtx)
	}
}

func TestAll_OrderOfFirstRecord(t *testing.T) {
	a := NewAggregator()
	a.Record("엄마", nil, "a")
	a.Record("내담자", []string{"외롭다"}, "b")
	a.Record("엄마", nil, "c")

	all := a.All()
	if len(all) != 2 || all[0].Entity != "엄마" || all[1].Entity != "내담자" {
		t.Errorf("All() = %+v", all)
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	a := NewAggregator()
	a.Record("형", []string{"화나다"}, "x")

	ev, _ := a.Get("형")
	ev.Emotions[0] = "changed"

	again, _ := a.Get("형")
	if again.Emotions[0] != "화나다" {
		t.Errorf("aggregator mutated through copy: %v", again.Emotions)
	}
	if _, ok := a.Get("nobody"); ok {
		t.Error("Get(nobody) ok = true")
	}
}
