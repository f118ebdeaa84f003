/*
Package action resolves document actions into typed definitions and
executes them against the state store.

Built-in kinds form a closed enumeration (dismiss, setState,
toggleState, showAlert, navigate, sequence); anything else is a custom
kind dispatched through the registry, then the host delegate, then a
logged no-op. Execution is asynchronous and cancellable per request.
*/
package action
