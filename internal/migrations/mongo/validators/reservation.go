package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"room_id",
			"date",
			"mask",
			"hours",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"mask": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  16777215,
			},

			"hours": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 24,
				"items": bson.M{
					"bsonType": []string{"int", "long"},
					"minimum":  0,
					"maximum":  23,
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
