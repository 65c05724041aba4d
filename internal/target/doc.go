// Package target defines the backend endpoint entity. A target carries two
// independent states: administrative availability (operator-controlled) and
// health (monitor-controlled). A target handles work only while both are true.
package target
