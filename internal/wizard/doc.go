// Package wizard implements the commission flow as an explicit state
// machine.
//
// Steps run Discovery, Engineering, MasterPlan, Fulfillment. Views (history,
// comparison, manifest, catalog, gallery) overlay the steps without losing
// them. Transitions are guarded: completing an intake needs tone goals (and
// style text unless the instrument is a Rhodes), confirming needs a spec,
// checkout needs a confirmed design. Invalid actions return ErrTransition
// and leave the state unchanged.
package wizard
