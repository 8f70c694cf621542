// Package http implements the chi handlers of the AdPulse API. Handlers are
// thin: they validate the query, call a service and render the result.
//
// # Endpoints
//
//	GET  /api/report?view=realtime&date=2024-01-05   full report
//	GET  /api/report?view=historical                 full report over every row
//	GET  /api/report/charts                          chart datasets only
//	GET  /api/report/export?format=csv|xlsx|json|text
//	GET  /api/dates                                  dates available for the picker
//	GET  /api/dataset                                snapshot status
//	POST /api/dataset/refresh                        reload from the spreadsheet
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//	GET  /metrics                                    Prometheus exposition
//
// Successful JSON responses use the envelope
//
//	{"status": "success", "data": ...}
//
// # Errors
//
// Every failure is passed to errors.ErrorHandler and rendered as RFC 7807
// problem details. A selection without rows answers 404 with type
// /errors/data/no-data-for-date:
//
//	{
//	    "type": "/errors/data/no-data-for-date",
//	    "title": "No Data For Selected Date",
//	    "status": 404,
//	    "detail": "No data available for the selected date. Please choose an appropriate date.",
//	    "instance": "/api/report",
//	    "date": "2024-01-06"
//	}
package http
