package sqlstore

// Fixed statements are written with '?' and rebound to the driver's
// placeholder style at call time.

const userColumns = `id, name, email, password`

const getUserByEmailSQL = `
SELECT ` + userColumns + `
FROM users
WHERE email = ?
`

const getUserByIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = ?
`

const insertUserSQL = `
INSERT INTO users (name, email, password)
VALUES (?, ?, ?)
`

// Postgres only.
const insertUserReturningSQL = insertUserSQL + `RETURNING ` + userColumns

const propertyColumns = `
  properties.id,
  properties.owner_id,
  properties.title,
  properties.description,
  properties.thumbnail_photo_url,
  properties.cover_photo_url,
  properties.cost_per_night,
  properties.parking_spaces,
  properties.number_of_bathrooms,
  properties.number_of_bedrooms,
  properties.country,
  properties.street,
  properties.city,
  properties.province,
  properties.post_code,
  properties.active`

const getPropertyByIDSQL = `
SELECT ` + propertyColumns + `
FROM properties
WHERE properties.id = ?
`

const insertPropertySQL = `
INSERT INTO properties
  (owner_id, title, description, thumbnail_photo_url, cover_photo_url, cost_per_night,
   parking_spaces, number_of_bathrooms, number_of_bedrooms, country, street, city,
   province, post_code, active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Postgres only. RETURNING cannot use the table-qualified list.
const insertPropertyReturningSQL = insertPropertySQL + `RETURNING
  id, owner_id, title, description, thumbnail_photo_url, cover_photo_url, cost_per_night,
  parking_spaces, number_of_bathrooms, number_of_bedrooms, country, street, city,
  province, post_code, active`

// Reservations with no review on their property drop out of the inner join.
const guestReservationsSQL = `
SELECT
  reservations.id AS reservation_id,
  reservations.guest_id,
  reservations.property_id,
  reservations.start_date,
  reservations.end_date,` + propertyColumns + `,
  avg(property_reviews.rating) AS average_rating
FROM reservations
JOIN properties ON reservations.property_id = properties.id
JOIN property_reviews ON properties.id = property_reviews.property_id
WHERE reservations.guest_id = ?
AND reservations.end_date < CURRENT_DATE
GROUP BY properties.id, reservations.id
ORDER BY reservations.start_date
LIMIT ?
`

const searchBaseSQL = `SELECT ` + propertyColumns + `,
  avg(property_reviews.rating) AS average_rating
FROM properties
JOIN property_reviews ON properties.id = property_reviews.property_id`

// -----------------------------------------------------------------------------
// SEED WRITES (explicit ids; existing rows are left alone)
// -----------------------------------------------------------------------------

const seedUserCols = `(id, name, email, password)
VALUES (:id, :name, :email, :password)`

const seedPropertyCols = `(id, owner_id, title, description, thumbnail_photo_url, cover_photo_url,
   cost_per_night, parking_spaces, number_of_bathrooms, number_of_bedrooms, country,
   street, city, province, post_code, active)
VALUES (:id, :owner_id, :title, :description, :thumbnail_photo_url, :cover_photo_url,
   :cost_per_night, :parking_spaces, :number_of_bathrooms, :number_of_bedrooms, :country,
   :street, :city, :province, :post_code, :active)`

const seedReservationCols = `(id, guest_id, property_id, start_date, end_date)
VALUES (:id, :guest_id, :property_id, :start_date, :end_date)`

const seedReviewCols = `(id, guest_id, property_id, reservation_id, rating, message)
VALUES (:id, :guest_id, :property_id, :reservation_id, :rating, :message)`

// Postgres sequences do not advance on explicit ids.
const resetSequenceSQL = `SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT max(id) FROM %[1]s), 0) + 1, false)`
