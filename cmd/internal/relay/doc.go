// Package relay bridges WebSocket clients to the downstream RAG inference
// service. Each connection runs a sequential loop: a text frame from the
// client is forwarded as a query, and the answer (or a failure marker) is
// written back as a ragResponse envelope.
package relay
