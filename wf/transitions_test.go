package wf_test

import (
	"testing"

	"docflow/bizerror"
	"docflow/domain"
	"docflow/identity"
	"docflow/testinfra"
	"docflow/wf"

	. "github.com/onsi/gomega"

	"github.com/fundwit/go-commons/types"
	"github.com/stretchr/testify/assert"
)

func seedIdentities(t *testing.T, testDatabase *testinfra.TestDatabase) {
	db := testDatabase.DS.GormDB()
	assert.Nil(t, db.Create(&identity.User{ID: 11, Login: "alice", FullName: "Alice"}).Error)
	assert.Nil(t, db.Create(&identity.User{ID: 12, Login: "bob", FullName: "Bob"}).Error)
	assert.Nil(t, db.Create(&identity.Group{ID: 21, Name: "editors"}).Error)
	assert.Nil(t, db.Create(&identity.Group{ID: 22, Name: "reviewers"}).Error)
}

func grantedTransition(t *testing.T, engine *wf.Engine) (*graph, *wf.TransitionDetail) {
	g := buildGraph(t, engine, "Draft", []string{"Draft", "Review"}, nil)
	submit, err := engine.CreateAction(&wf.ActionCreation{Name: "submit"})
	assert.Nil(t, err)
	transition, err := engine.AddTransition(g.workflow.ID, &wf.TransitionCreation{
		FromStateID: g.states["Draft"].ID, ActionID: submit.ID, ToStateID: g.states["Review"].ID,
		UserIDs: []types.ID{11, 12},
		Groups:  []wf.GroupGrant{{GroupID: 21}, {GroupID: 22, MinUsers: 2}},
	})
	assert.Nil(t, err)
	return g, transition
}

func TestTransitionGrants(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("without filters the configured grants come back unmodified", func(t *testing.T) {
		defer teardown(t, testDatabase)
		engine := setup(t, &testDatabase)
		seedIdentities(t, testDatabase)
		_, transition := grantedTransition(t, engine)

		users, err := engine.TransitionUsers(transition.ID)
		Expect(err).To(BeNil())
		Expect(len(users)).To(Equal(2))
		Expect(users[0].User.Login).To(Equal("alice"))
		Expect(users[1].User.Login).To(Equal("bob"))

		groups, err := engine.TransitionGroups(transition.ID)
		Expect(err).To(BeNil())
		Expect(len(groups)).To(Equal(2))
		Expect(groups[0].Group.Name).To(Equal("editors"))
		Expect(groups[0].MinUsers).To(Equal(1))
		Expect(groups[1].Group.Name).To(Equal("reviewers"))
		Expect(groups[1].MinUsers).To(Equal(2))
	})

	t.Run("filters run in registration order and replace the set", func(t *testing.T) {
		defer teardown(t, testDatabase)
		engine := setup(t, &testDatabase)
		seedIdentities(t, testDatabase)
		_, transition := grantedTransition(t, engine)

		engine.Filters().RegisterUserFilter(func(transition wf.TransitionDetail, grants []wf.UserGrant) ([]wf.UserGrant, bool) {
			var kept []wf.UserGrant
			for _, grant := range grants {
				if grant.User.Login != "bob" {
					kept = append(kept, grant)
				}
			}
			return kept, false
		})
		engine.Filters().RegisterUserFilter(func(transition wf.TransitionDetail, grants []wf.UserGrant) ([]wf.UserGrant, bool) {
			// the first filter already ran
			Expect(len(grants)).To(Equal(1))
			return grants, false
		})

		users, err := engine.TransitionUsers(transition.ID)
		Expect(err).To(BeNil())
		Expect(len(users)).To(Equal(1))
		Expect(users[0].User.Login).To(Equal("alice"))
	})

	t.Run("a hard deny short-circuits and is not an empty set", func(t *testing.T) {
		defer teardown(t, testDatabase)
		engine := setup(t, &testDatabase)
		seedIdentities(t, testDatabase)
		_, transition := grantedTransition(t, engine)

		secondCalled := false
		engine.Filters().RegisterGroupFilter(func(transition wf.TransitionDetail, grants []wf.GroupGrantDetail) ([]wf.GroupGrantDetail, bool) {
			return nil, true
		})
		engine.Filters().RegisterGroupFilter(func(transition wf.TransitionDetail, grants []wf.GroupGrantDetail) ([]wf.GroupGrantDetail, bool) {
			secondCalled = true
			return grants, false
		})

		groups, err := engine.TransitionGroups(transition.ID)
		Expect(err).To(Equal(bizerror.ErrTransitionDenied))
		Expect(groups).To(BeNil())
		Expect(secondCalled).To(BeFalse())
	})

	t.Run("resolved grants are cached after the full chain", func(t *testing.T) {
		defer teardown(t, testDatabase)
		engine := setup(t, &testDatabase)
		seedIdentities(t, testDatabase)
		_, transition := grantedTransition(t, engine)

		invocations := 0
		engine.Filters().RegisterUserFilter(func(transition wf.TransitionDetail, grants []wf.UserGrant) ([]wf.UserGrant, bool) {
			invocations++
			return grants, false
		})

		_, err := engine.TransitionUsers(transition.ID)
		Expect(err).To(BeNil())
		_, err = engine.TransitionUsers(transition.ID)
		Expect(err).To(BeNil())
		Expect(invocations).To(Equal(1))
	})

	t.Run("adding a grant to an existing transition invalidates the cached set", func(t *testing.T) {
		defer teardown(t, testDatabase)
		engine := setup(t, &testDatabase)
		seedIdentities(t, testDatabase)
		_, transition := grantedTransition(t, engine)

		users, err := engine.TransitionUsers(transition.ID)
		Expect(err).To(BeNil())
		Expect(len(users)).To(Equal(2))

		db := testDatabase.DS.GormDB()
		assert.Nil(t, db.Create(&identity.User{ID: 13, Login: "carol", FullName: "Carol"}).Error)
		_, err = engine.AddTransitionUser(transition.ID, types.ID(13))
		Expect(err).To(BeNil())

		users, err = engine.TransitionUsers(transition.ID)
		Expect(err).To(BeNil())
		Expect(len(users)).To(Equal(3))
	})
}

func TestTransitionSetters(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("endpoint reassignment persists and refreshes the workflow's set", func(t *testing.T) {
		defer teardown(t, testDatabase)
		engine := setup(t, &testDatabase)
		seedIdentities(t, testDatabase)
		g, transition := grantedTransition(t, engine)

		released, err := engine.CreateState(&wf.StateCreation{Name: "Released", DocumentStatus: domain.StatusReleased})
		Expect(err).To(BeNil())

		// warm the cache, then reassign
		_, err = engine.WorkflowTransitions(g.workflow.ID)
		Expect(err).To(BeNil())
		Expect(engine.SetTransitionToState(transition.ID, released.ID)).To(BeNil())
		Expect(engine.SetTransitionMaxTime(transition.ID, 7200)).To(BeNil())

		transitions, err := engine.WorkflowTransitions(g.workflow.ID)
		Expect(err).To(BeNil())
		Expect(len(transitions)).To(Equal(1))
		Expect(transitions[0].To.Name).To(Equal("Released"))
		Expect(transitions[0].To.DocumentStatus).To(Equal(domain.StatusReleased))
		Expect(transitions[0].MaxTime).To(Equal(7200))
	})

	t.Run("reassignment to an unknown endpoint fails and changes nothing", func(t *testing.T) {
		defer teardown(t, testDatabase)
		engine := setup(t, &testDatabase)
		seedIdentities(t, testDatabase)
		_, transition := grantedTransition(t, engine)

		Expect(engine.SetTransitionToState(transition.ID, types.ID(404))).ToNot(BeNil())
		Expect(engine.SetTransitionAction(transition.ID, types.ID(404))).ToNot(BeNil())
		Expect(engine.SetTransitionWorkflow(transition.ID, types.ID(404))).ToNot(BeNil())

		loaded, err := engine.Transition(transition.ID)
		Expect(err).To(BeNil())
		Expect(loaded.ToStateID).To(Equal(transition.ToStateID))
		Expect(loaded.ActionID).To(Equal(transition.ActionID))
		Expect(loaded.WorkflowID).To(Equal(transition.WorkflowID))
	})
}

func TestRemoveTransition(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("removal deletes the transition together with its grant rows", func(t *testing.T) {
		defer teardown(t, testDatabase)
		engine := setup(t, &testDatabase)
		seedIdentities(t, testDatabase)
		g, transition := grantedTransition(t, engine)

		Expect(engine.RemoveTransition(transition.ID)).To(BeNil())

		db := testDatabase.DS.GormDB()
		count := 0
		Expect(db.Model(&domain.WorkflowTransition{}).Count(&count).Error).To(BeNil())
		Expect(count).To(BeZero())
		Expect(db.Model(&domain.TransitionUser{}).Count(&count).Error).To(BeNil())
		Expect(count).To(BeZero())
		Expect(db.Model(&domain.TransitionGroup{}).Count(&count).Error).To(BeNil())
		Expect(count).To(BeZero())

		transitions, err := engine.WorkflowTransitions(g.workflow.ID)
		Expect(err).To(BeNil())
		Expect(len(transitions)).To(BeZero())
	})
}
