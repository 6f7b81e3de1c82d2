package main

//go:generate swag init -g cmd/monitor/main.go -o docs

// @title           Solar Fleet Monitor API
// @version         0.1.0
// @description     Anomaly detection, energy ingestion and billing for solar generation units.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
