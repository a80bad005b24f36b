package internal

const ServerRawTemplate = `// Dependencies
const express = require('express');
const app = express();
const expressSwagger = require('express-swagger-generator')(app);
const mongoose = require('mongoose');
const logger = require('morgan');
const bodyParser = require('body-parser');
const dotenv = require('dotenv');
const homeRoute = require('./api/routes/homeRoute');

{{.Requires}}
// Load dotenv variables
dotenv.config();

// Express swagger documents
const options = {{.Swagger}};
options.basedir = __dirname;

expressSwagger(options);

// Define PORT
const PORT = process.env.PORT || {{.Port}};

// Connect to Database
mongoose.connect({{js .MongoURL}});

// Use body parser to parse post requests
app.use(bodyParser.urlencoded({ extended: false }));
app.use(bodyParser.json());

// Logger middleware
app.use(logger('dev'));

// Use Routes
app.use('/', homeRoute);
{{.Mounts}}
// Listen for HTTP Requests
app.listen(PORT, () => {
  console.log('Server running on port ' + PORT);
});
`

const ControllerRawTemplate = `// Dependencies
const mongoose = require('mongoose');
const { {{.Name}} } = require('./../models/{{.Model}}Model');

const { ObjectId } = mongoose.Types;

// Every operation completes with exactly one result:
// ok(status, data) or fail(status, err).
const ok = (status, data) => ({ ok: true, status: status, data: data });
const fail = (status, err) => ({ ok: false, status: status, err: err });

// Get all {{.Model}}
const {{.GetAll.Name}} = callback => {
  {{.Name}}.find({}).then(
    data => callback({{result .GetAll "success"}}),
    err => callback({{result .GetAll "lookup-error"}}));
};

// Get a particular {{.Model}}
const {{.Get.Name}} = (id, callback) => {
  if (!ObjectId.isValid(id))
    return callback({{result .Get "invalid-id"}});

  {{.Name}}.findOne({ _id: id }).then(
    found => {
      if (!found)
        return callback({{result .Get "not-found"}});
      return callback({{result .Get "success"}});
    },
    err => callback({{result .Get "lookup-error"}}));
};

// Add a {{.Model}}
const {{.Add.Name}} = (data, callback) => {
  new {{.Name}}(data).save().then(
    created => callback({{result .Add "success"}}),
    err => callback({{result .Add "write-error"}}));
};

// Modify a {{.Model}}
const {{.Modify.Name}} = (id, data, callback) => {
  if (!ObjectId.isValid(id))
    return callback({{result .Modify "invalid-id"}});

  {{.Name}}.findOne({ _id: id }).then(
    found => {
      if (!found)
        return callback({{result .Modify "not-found"}});
      return {{.Name}}.updateOne({ _id: id }, data).then(
        () => callback({{result .Modify "success"}}),
        err => callback({{result .Modify "write-error"}}));
    },
    err => callback({{result .Modify "lookup-error"}}));
};

// Delete a {{.Model}}
const {{.Delete.Name}} = (id, callback) => {
  if (!ObjectId.isValid(id))
    return callback({{result .Delete "invalid-id"}});

  {{.Name}}.findOne({ _id: id }).then(
    found => {
      if (!found)
        return callback({{result .Delete "not-found"}});
      return {{.Name}}.deleteOne({ _id: id }).then(
        () => callback({{result .Delete "success"}}),
        err => callback({{result .Delete "write-error"}}));
    },
    err => callback({{result .Delete "lookup-error"}}));
};

module.exports = {
  {{.GetAll.Name}},
  {{.Get.Name}},
  {{.Add.Name}},
  {{.Modify.Name}},
  {{.Delete.Name}},
};
`

const corsMiddleware = `// Enable CORS
router.use((req, res, next) => {
  res.header('Access-Control-Allow-Origin', '*');
  res.header('Access-Control-Allow-Headers',
    'Origin, X-Requested-With, Content-Type, Accept, X-Access-Token, X-Key');
  next();
});
`

const HomeRouteRawTemplate = `// Dependencies
const express = require('express');
const router = express.Router();

` + corsMiddleware + `
/**
 * @route GET /
 * @group Home
 * @returns {string} get api version
 */
router.get('/', (req, res) => {
  res.send({{js .Banner}});
});

module.exports = router;
`

const RoutesRawTemplate = `// Dependencies
const express = require('express');
const router = express.Router();
const {{.Model}}Controller = require('./../controllers/{{.Model}}Controller');

` + corsMiddleware + `
// Send a controller result as {err, data}
const respond = res => result => {
  res.status(result.status).json({
    err: result.ok ? null : result.err,
    data: result.ok ? result.data : null,
  });
};

/**
{{.Typedef}} */

/**
 * @route GET /{{.Model}}
 * @group {{.Name}}
 * @returns {Array.<{{.Name}}>} get all {{.Model}}
 */
router.get('/', (req, res) => {
  {{.Model}}Controller.{{.GetAll.Name}}(respond(res));
});

/**
 * @route GET /{{.Model}}/{{.PathParam}}
 * @group {{.Name}}
 * @param {{.IDParam}}
 * @returns {{.ItemResult}} get one {{.Model}}
 */
router.get('/:{{.Param}}', (req, res) => {
  {{.Model}}Controller.{{.Get.Name}}(req.params.{{.Param}}, respond(res));
});

/**
 * @route POST /{{.Model}}
 * @group {{.Name}}
 * @param {{.BodyParam}}
 * @returns {{.ItemResult}} add a {{.Model}}
 */
router.post('/', (req, res) => {
  {{.Model}}Controller.{{.Add.Name}}(req.body, respond(res));
});

/**
 * @route PUT /{{.Model}}/{{.PathParam}}
 * @group {{.Name}}
 * @param {{.IDParam}}
 * @param {{.BodyParam}}
 * @returns {{.ItemResult}} modify a {{.Model}}
 */
router.put('/:{{.Param}}', (req, res) => {
  {{.Model}}Controller.{{.Modify.Name}}(req.params.{{.Param}}, req.body, respond(res));
});

/**
 * @route DELETE /{{.Model}}/{{.PathParam}}
 * @group {{.Name}}
 * @param {{.IDParam}}
 * @returns {{.ItemResult}} delete a {{.Model}}
 */
router.delete('/:{{.Param}}', (req, res) => {
  {{.Model}}Controller.{{.Delete.Name}}(req.params.{{.Param}}, respond(res));
});

module.exports = router;
`

const ModelRawTemplate = `// Dependencies
const mongoose = require('mongoose');

const {{.Model}}Schema = new mongoose.Schema({
{{range .Fields}}  {{.Name}}: {
    type: {{.Type}},
    required: true,
  },
{{end}}  createdAt: {
    type: Date,
    default: Date.now,
  },
});

module.exports = {
  {{.Name}}: mongoose.model({{js .Name}}, {{.Model}}Schema),
};
`
