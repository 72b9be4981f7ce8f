package mysql

const insertReviewsPrefix = "INSERT INTO reviews\n" +
	"  (agent_name, rating, review_text, delivery_time, location, order_type,\n" +
	"   price_range, discount_applied, product_availability, customer_service_rating,\n" +
	"   order_accuracy, customer_feedback_type, sentiment, performance, accuracy,\n" +
	"   discount_range, complaint_type)\nVALUES "

const insertReviewsRow = "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"

const selectReviewColumns = `
  id, agent_name, rating, review_text, delivery_time, location, order_type,
  price_range, discount_applied, product_availability, customer_service_rating,
  order_accuracy, customer_feedback_type, sentiment, performance, accuracy,
  discount_range, complaint_type, created_at, updated_at`

const getReviewSQL = "SELECT" + selectReviewColumns + " FROM reviews WHERE id = ?"

// sortColumns maps the façade's allow-listed sort fields onto real columns.
// The façade normalizes before the repo sees the query, so an unknown value
// here is a programming error and falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// tagColumns maps updatable tag fields onto columns for the dynamic UPDATE.
var tagColumns = map[string]string{
	"sentiment":            "sentiment",
	"accuracy":             "accuracy",
	"performance":          "performance",
	"customerFeedbackType": "customer_feedback_type",
}
