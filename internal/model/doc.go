// Package model holds the todo domain types: todos, priorities, filters,
// calendar dates and due-date classification. Everything here is pure.
package model
