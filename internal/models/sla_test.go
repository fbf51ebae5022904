package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestSLADefinitionMatches(t *testing.T) {
	order := WorkOrder{
		ID:           "wo-1",
		CompanyID:    "company-1",
		Status:       WorkOrderStatusOpen,
		CategoryID:   strPtr("cat-hvac"),
		PrioritySlug: strPtr("high"),
	}

	tests := []struct {
		name string
		def  SLADefinition
		want bool
	}{
		{
			name: "unscoped definition matches any order",
			def:  SLADefinition{AppliesTo: SLAAppliesToWorkOrders, IsActive: true},
			want: true,
		},
		{
			name: "applies_to both matches work orders",
			def:  SLADefinition{AppliesTo: SLAAppliesToBoth, IsActive: true},
			want: true,
		},
		{
			name: "inactive definition never matches",
			def:  SLADefinition{AppliesTo: SLAAppliesToWorkOrders, IsActive: false},
			want: false,
		},
		{
			name: "maintenance-only definition never matches",
			def:  SLADefinition{AppliesTo: SLAAppliesToMaintenance, IsActive: true},
			want: false,
		},
		{
			name: "matching category",
			def:  SLADefinition{AppliesTo: SLAAppliesToWorkOrders, IsActive: true, CategoryID: strPtr("cat-hvac")},
			want: true,
		},
		{
			name: "mismatched category",
			def:  SLADefinition{AppliesTo: SLAAppliesToWorkOrders, IsActive: true, CategoryID: strPtr("cat-electrical")},
			want: false,
		},
		{
			name: "matching category and priority",
			def: SLADefinition{
				AppliesTo:     SLAAppliesToWorkOrders,
				IsActive:      true,
				CategoryID:    strPtr("cat-hvac"),
				PriorityLevel: strPtr("high"),
			},
			want: true,
		},
		{
			name: "mismatched priority",
			def:  SLADefinition{AppliesTo: SLAAppliesToWorkOrders, IsActive: true, PriorityLevel: strPtr("low")},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.def.Matches(order))
		})
	}
}

func TestSLADefinitionScopedDoesNotMatchUnscopedOrder(t *testing.T) {
	// An order with no category must not match a category-scoped definition.
	order := WorkOrder{ID: "wo-2", Status: WorkOrderStatusOpen}
	def := SLADefinition{
		AppliesTo:  SLAAppliesToWorkOrders,
		IsActive:   true,
		CategoryID: strPtr("cat-hvac"),
	}
	assert.False(t, def.Matches(order))
}

func TestWorkOrderIsClosed(t *testing.T) {
	assert.True(t, WorkOrder{Status: WorkOrderStatusCompleted}.IsClosed())
	assert.True(t, WorkOrder{Status: WorkOrderStatusCancelled}.IsClosed())
	assert.False(t, WorkOrder{Status: WorkOrderStatusOpen}.IsClosed())
	assert.False(t, WorkOrder{Status: WorkOrderStatusInProgress}.IsClosed())
}
