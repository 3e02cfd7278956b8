package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gradebook API",
        "description": "Course grading service: weighted activities, score capture and derived corte/final grades",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Activities", "description": "Weighted activity management and corte allocations"},
        {"name": "Grades", "description": "Score submission, grade board and exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/courses/{courseId}/activities": {
            "get": {
                "tags": ["Activities"],
                "summary": "List course activities",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Activities"],
                "summary": "Create a weighted activity",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateActivityRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Allocation exceeded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/activities/{activityId}": {
            "delete": {
                "tags": ["Activities"],
                "summary": "Delete an activity",
                "parameters": [
                    {"name": "activityId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/allocations": {
            "get": {
                "tags": ["Activities"],
                "summary": "Per-corte weight allocation summary",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "corte", "in": "query", "type": "integer"},
                    {"name": "percentage", "in": "query", "type": "number"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Allocation exceeded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scores": {
            "post": {
                "tags": ["Grades"],
                "summary": "Submit a score for one activity and student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "Recomputed grade row", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid score", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/grades/settle": {
            "post": {
                "tags": ["Grades"],
                "summary": "Recompute grades for every enrolled student",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "Course grade board",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/students/{studentId}/grade": {
            "get": {
                "tags": ["Grades"],
                "summary": "One student's derived grades in a course",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/grades/export": {
            "get": {
                "tags": ["Grades"],
                "summary": "Export the course grade sheet",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Grade sheet file"}
                }
            }
        }
    },
    "definitions": {
        "CreateActivityRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "corte": {"type": "integer", "minimum": 1, "maximum": 3},
                "percentage": {"type": "number"}
            },
            "required": ["name", "corte", "percentage"]
        },
        "SubmitScoreRequest": {
            "type": "object",
            "properties": {
                "activity_id": {"type": "string"},
                "student_id": {"type": "string"},
                "score": {"type": "number", "minimum": 0, "maximum": 5}
            },
            "required": ["activity_id", "student_id", "score"]
        },
        "CorteAllocation": {
            "type": "object",
            "properties": {
                "corte": {"type": "integer"},
                "used": {"type": "number"},
                "cap": {"type": "number"}
            }
        },
        "CourseGrade": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "enrollment_id": {"type": "string"},
                "student_id": {"type": "string"},
                "course_id": {"type": "string"},
                "student_name": {"type": "string"},
                "corte1": {"type": "number"},
                "corte2": {"type": "number"},
                "corte3": {"type": "number"},
                "final_grade": {"type": "number"},
                "calculated_at": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
