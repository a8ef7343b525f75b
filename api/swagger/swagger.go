package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mentor Availability API",
        "description": "Weekly availability editing, slot materialization and booking for mentors.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Templates", "description": "Stored availability rules"},
        {"name": "Availability", "description": "Weekly schedule editing sessions"},
        {"name": "Slots", "description": "Materialized bookable slots"},
        {"name": "Pricing", "description": "Group pricing tiers"},
        {"name": "Bookings", "description": "Slot reservations"}
    ],
    "paths": {
        "/mentors/{id}/templates": {
            "get": {
                "tags": ["Templates"],
                "summary": "List availability templates",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/MentorID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Templates"],
                "summary": "Create an availability template",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlapping slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Rule violation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/templates/{templateId}": {
            "put": {
                "tags": ["Templates"],
                "summary": "Replace an availability template",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"name": "templateId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TemplateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Templates"],
                "summary": "Delete an availability template",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"name": "templateId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/availability/session": {
            "post": {
                "tags": ["Availability"],
                "summary": "Open an editing session from stored rules",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/MentorID"}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Availability"],
                "summary": "Get the editing session",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/MentorID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No open session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/availability/session/days/{day}": {
            "patch": {
                "tags": ["Availability"],
                "summary": "Enable or disable a weekday",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"$ref": "#/parameters/Day"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"enabled": {"type": "boolean"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/availability/session/days/{day}/slots": {
            "post": {
                "tags": ["Availability"],
                "summary": "Add a default slot on the next occurrence of a weekday",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"$ref": "#/parameters/Day"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/availability/session/days/{day}/slots/{index}": {
            "patch": {
                "tags": ["Availability"],
                "summary": "Patch one slot of the session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"$ref": "#/parameters/Day"},
                    {"$ref": "#/parameters/Index"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Rule violation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Availability"],
                "summary": "Remove one slot, deleting it from storage when persisted",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"$ref": "#/parameters/Day"},
                    {"$ref": "#/parameters/Index"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/availability/session/save": {
            "post": {
                "tags": ["Availability"],
                "summary": "Reconcile the session with storage",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/MentorID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlap or save in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Store returned no rules after save", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/slots": {
            "get": {
                "tags": ["Slots"],
                "summary": "List materialized slots",
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/slots/export": {
            "get": {
                "tags": ["Slots"],
                "summary": "Export materialized slots",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Export disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/pricing": {
            "get": {
                "tags": ["Pricing"],
                "summary": "Get group pricing",
                "parameters": [{"$ref": "#/parameters/MentorID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Pricing"],
                "summary": "Replace group pricing",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PricingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors/{id}/bookings": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book a slot instant",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/MentorID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No slot at instant", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot already booked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "MentorID": {"name": "id", "in": "path", "required": true, "type": "string"},
        "Day": {"name": "day", "in": "path", "required": true, "type": "string", "enum": ["monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"]},
        "Index": {"name": "index", "in": "path", "required": true, "type": "integer"}
    },
    "definitions": {
        "TemplateRequest": {
            "type": "object",
            "required": ["startTime", "endTime"],
            "properties": {
                "dayOfWeek": {"type": "string"},
                "specificDate": {"type": "string", "format": "date"},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "10:00"},
                "groupTier": {"type": "integer"}
            }
        },
        "UpdateSlotRequest": {
            "type": "object",
            "properties": {
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "groupTier": {"type": "integer"},
                "specificDate": {"type": "string", "format": "date"},
                "recurring": {"type": "boolean"}
            }
        },
        "PricingRequest": {
            "type": "object",
            "properties": {
                "tiers": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "groupSize": {"type": "integer"},
                            "priceCents": {"type": "integer"}
                        }
                    }
                }
            }
        },
        "BookingRequest": {
            "type": "object",
            "required": ["startInstant"],
            "properties": {
                "startInstant": {"type": "string", "format": "date-time"},
                "groupTier": {"type": "integer"},
                "participants": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
