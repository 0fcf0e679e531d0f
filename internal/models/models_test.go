package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProviderView_ResolvesKnownCategories(t *testing.T) {
	a, b, missing := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	p := Provider{Name: "Eletricista Zé", CategoryIDs: []primitive.ObjectID{a, missing, b}}

	v := p.View(map[primitive.ObjectID]string{a: "Elétrica", b: "Reformas"})
	if len(v.Categories) != 2 {
		t.Fatalf("want 2 categories, got %#v", v.Categories)
	}
	if v.Categories[0].Name != "Elétrica" || v.Categories[1].Name != "Reformas" {
		t.Fatalf("order/names mismatch: %#v", v.Categories)
	}
}

func TestProviderView_EmptyCategoriesNotNil(t *testing.T) {
	p := Provider{Name: "X"}
	if v := p.View(nil); v.Categories == nil {
		t.Fatal("categories must serialize as [] not null")
	}
}

func TestMediaKind_Valid(t *testing.T) {
	for _, k := range []MediaKind{MediaPhoto, MediaVideo, MediaPDF, MediaLink} {
		if !k.Valid() {
			t.Fatalf("%s should be valid", k)
		}
	}
	if MediaKind("audio").Valid() || MediaKind("").Valid() {
		t.Fatal("unexpected valid kind")
	}
}
