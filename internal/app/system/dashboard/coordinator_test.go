package dashboard_test

import (
	"context"
	"testing"

	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
)

func TestLoadAll_BatchSuccessCachesProvidedLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.batch = apiclient.BatchResult{Results: map[string]models.UserProjects{
		"A": {Projects: projects(1), ProjectCount: 1},
		"B": {Projects: []models.Project{}, ProjectCount: 0},
	}}

	f.svc.Coordinator(f.sess, f.api).LoadAll(ctx, users("A", "B", "C"), f.view)

	if f.api.batchCalls != 1 {
		t.Fatalf("batch calls: got %d, want 1", f.api.batchCalls)
	}
	if got := f.api.batchIDs; len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Errorf("batch ids: got %v, want [A B C]", got)
	}
	if n := f.api.totalProjectCalls(); n != 0 {
		t.Errorf("per-user calls: got %d, want 0", n)
	}

	if l, _ := f.view.count("A"); l != "1 project" {
		t.Errorf("label A: got %q, want %q", l, "1 project")
	}
	if l, _ := f.view.count("B"); l != "0 projects" {
		t.Errorf("label B: got %q, want %q", l, "0 projects")
	}
	if _, ok := f.view.count("C"); ok {
		t.Error("label C: omitted user should keep its loading label")
	}

	got, ok, _ := f.cache.Get(ctx, "A")
	if !ok || len(got) != 1 {
		t.Errorf("cache A: got (%v, %v), want one project", got, ok)
	}
	got, ok, _ = f.cache.Get(ctx, "B")
	if !ok || len(got) != 0 {
		t.Errorf("cache B: got (%v, %v), want present empty list", got, ok)
	}
	if ok, _ := f.cache.Has(ctx, "C"); ok {
		t.Error("cache C: omitted user must not be cached")
	}
}

func TestLoadAll_LabelUsesReportedCount(t *testing.T) {
	f := newFixture(t)
	f.api.batch = apiclient.BatchResult{Results: map[string]models.UserProjects{
		"A": {Projects: []models.Project{}, ProjectCount: 5},
	}}

	f.svc.Coordinator(f.sess, f.api).LoadAll(context.Background(), users("A"), f.view)

	if l, _ := f.view.count("A"); l != "5 projects" {
		t.Errorf("label A: got %q, want %q", l, "5 projects")
	}
}

func TestLoadAll_BatchFailureFallsBackPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.batchErr = apiclient.StatusError(apiclient.OpBatch, 500)
	f.api.projects["A"] = projects(2)
	f.api.projectErr["B"] = apiclient.StatusError(apiclient.OpUserProjects, 503)

	f.svc.Coordinator(f.sess, f.api).LoadAll(ctx, users("A", "B"), f.view)

	if f.api.batchCalls != 1 {
		t.Errorf("batch calls: got %d, want 1", f.api.batchCalls)
	}
	if f.api.projectCalls["A"] != 1 || f.api.projectCalls["B"] != 1 {
		t.Errorf("per-user calls: got %v, want one each", f.api.projectCalls)
	}
	if l, _ := f.view.count("A"); l != "2 projects" {
		t.Errorf("label A: got %q, want %q", l, "2 projects")
	}
	if l, _ := f.view.count("B"); l != "0 projects" {
		t.Errorf("label B: got %q, want %q", l, "0 projects")
	}
	if got, ok, _ := f.cache.Get(ctx, "A"); !ok || len(got) != 2 {
		t.Errorf("cache A: got (%v, %v), want two projects", got, ok)
	}
	if ok, _ := f.cache.Has(ctx, "B"); ok {
		t.Error("cache B: failed fallback must leave no entry")
	}
}

func TestLoadAll_MalformedBatchFallsBack(t *testing.T) {
	f := newFixture(t)
	f.api.batchErr = &apiclient.Error{Kind: apiclient.KindMalformed, Message: "Unexpected response from the API."}
	f.api.projects["A"] = projects(1)

	f.svc.Coordinator(f.sess, f.api).LoadAll(context.Background(), users("A"), f.view)

	if l, _ := f.view.count("A"); l != "1 project" {
		t.Errorf("label A: got %q, want %q", l, "1 project")
	}
}

func TestLoadAll_FallbackPrefersCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.batchErr = apiclient.StatusError(apiclient.OpBatch, 502)
	f.cache.Set(ctx, "A", projects(3))

	f.svc.Coordinator(f.sess, f.api).LoadAll(ctx, users("A"), f.view)

	if f.api.projectCalls["A"] != 0 {
		t.Errorf("per-user calls for cached A: got %d, want 0", f.api.projectCalls["A"])
	}
	if l, _ := f.view.count("A"); l != "3 projects" {
		t.Errorf("label A: got %q, want %q", l, "3 projects")
	}
}

func TestLoadAll_ManyUsersAllResolved(t *testing.T) {
	f := newFixture(t)
	f.api.batchErr = apiclient.StatusError(apiclient.OpBatch, 500)
	ids := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8"}
	for i, id := range ids {
		f.api.projects[id] = projects(i)
	}

	f.svc.Coordinator(f.sess, f.api).LoadAll(context.Background(), users(ids...), f.view)

	for i, id := range ids {
		want := dashboard.CountLabel(i)
		if got, _ := f.view.count(id); got != want {
			t.Errorf("label %s: got %q, want %q", id, got, want)
		}
	}
}

func TestCountLabel(t *testing.T) {
	tests := map[int]string{0: "0 projects", 1: "1 project", 2: "2 projects", 11: "11 projects"}
	for n, want := range tests {
		if got := dashboard.CountLabel(n); got != want {
			t.Errorf("CountLabel(%d): got %q, want %q", n, got, want)
		}
	}
}

func TestLoadAll_EmptyUsersMakesNoCall(t *testing.T) {
	f := newFixture(t)

	f.svc.Coordinator(f.sess, f.api).LoadAll(context.Background(), nil, f.view)

	if f.api.batchCalls != 0 {
		t.Errorf("batch calls: got %d, want 0", f.api.batchCalls)
	}
}
