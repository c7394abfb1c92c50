// Package resolver turns cloudinary:// connection strings into configuration
// entries and resolves options with the precedence: call-site options >
// configuration > hard default. A Resolver owns its configuration through an
// injected storage.Storage instead of process-wide state; create one per client
// (or per test) and Reset it on teardown.
package resolver
