// Package oracle defines the interface to the external policy decision
// engine and the object-class / permission vocabulary the mediation layer
// uses when asking it questions.
//
// The decision algorithm itself is out of scope: seguard only consumes
// allow/deny answers and label lookups. Hosts supply an Oracle backed by
// their platform's policy engine; tests supply counting fakes.
package oracle
