package validators

import "go.mongodb.org/mongo-driver/bson"

// ClosureValidator guards the Config collection, which holds the single
// common closure document keyed by a fixed string id.
var ClosureValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"weekly_mask": weekdayMaskProperties,
		},
	},
}
