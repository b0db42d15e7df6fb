package validators

import "go.mongodb.org/mongo-driver/bson"

// weekdayMaskProperties is shared by every document that embeds a weekly
// closure mask: one optional 24-bit integer per weekday.
var weekdayMaskProperties = bson.M{
	"bsonType":             "object",
	"additionalProperties": false,
	"properties": bson.M{
		"monday":    hourMaskSchema,
		"tuesday":   hourMaskSchema,
		"wednesday": hourMaskSchema,
		"thursday":  hourMaskSchema,
		"friday":    hourMaskSchema,
		"saturday":  hourMaskSchema,
		"sunday":    hourMaskSchema,
	},
}

var hourMaskSchema = bson.M{
	"bsonType": []string{"int", "long"},
	"minimum":  0,
	"maximum":  16777215,
}

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"title", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 32,
			},

			"weekly_mask": weekdayMaskProperties,

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
