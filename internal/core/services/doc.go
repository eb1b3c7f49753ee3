// Package services implements the driving ports: ingestion, retrieval,
// question answering, source synchronisation, scheduling, and settings.
// Services hold the orchestration logic and talk to storage, embedding
// providers, and connectors exclusively through the driven ports, so
// every dependency can be swapped in tests.
package services
